/*
Package localstore persists a client's voting state on disk.

It is a single-table SQLite key/value store (pure Go driver, no cgo):

	ls, err := localstore.Open("voting.db")
	defer ls.Close()

	st, err := store.New(transport, ls)

The store package writes its whole snapshot under one key after every
change, so the table holds one row per client in practice.
*/
package localstore
