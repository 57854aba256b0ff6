/*
Package route binds manifest descriptors to page handlers.

A [Builder] resolves each descriptor's page module through a page.Loader,
checks its View and registers it under the descriptor's path.
Build returns an immutable [Table]; there is no way to add routes to a Table afterwards,
so a Table can be shared by any number of goroutines serving requests.

By default binding is fail-fast: the first descriptor that cannot be bound aborts the bind and no Table is produced.
With [SkipAndWarn], page modules that fail to load or lack a usable View are skipped,
each logged as a warning and recorded in [Result].
Unknown or unsafe module names and route conflicts are fatal under every policy.
*/
package route
