/*
Package session enforces the single-writer discipline for program edits.

Every mutation goes through Manager.Edit, which loads the program, applies the
change and saves it while holding a per-program lock. Replicas sharing a store
add a DistributedLocker (see adapters/redis) so the discipline holds across
processes too.
*/
package session
