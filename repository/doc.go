/*
Package repository wraps the PostgreSQL tables behind small typed query
objects.

# Voting Data

	repo := repository.NewVotingData(conn)

	row, err := repo.Create(ctx, input)
	rows, err := repo.Find(ctx, repository.FindQuery{Date: "2024-12-04", PlaceID: 3})
	totals, err := repo.Aggregate(ctx, "2024-12-04")

Find orders newest first. Aggregate with an empty date sums every row.

# Voting Dates

	dates := repository.NewVotingDates(conn)

	all, err := dates.Find(ctx)                           // date ASC
	one, err := dates.FindOne(ctx, "2024-12-05")
	one, err = dates.FindOneAndUpdate(ctx, "2024-12-05", true, false)
	others, err := dates.UpdateMany(ctx, "2024-12-05", false)

Activation touches several rows; run it inside a transaction with WithTx.

# Errors

Lookups that match nothing return ErrNotFound. Inserts that reference a
missing place or user return ErrUnknownReference. Everything else is the
driver error, logged and wrapped.
*/
package repository
