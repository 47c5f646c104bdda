// Package preflight validates the local environment before the daemon
// starts serving board operations: directory access, free disk space at
// the delivery location, and asset gateway reachability.
package preflight
