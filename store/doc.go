// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the client-resident voting aggregation store.

A Store holds the submitted VotingData records, the derived activity feed,
the scheduled voting dates, and the locally selected date. It persists that
state through a Persister after every change and keeps peers in sync
through a Transport.

# Creating a Store

	st, err := store.New(transport, persister)

New hydrates from the persister key "voting-storage" when present, otherwise
starts from the four seed dates. It then joins room "votingRoom" and
subscribes to event "votingUpdate".

# Mutations

  - AddVotingData: stamps, appends, prepends an activity entry, broadcasts
    {votingData, activityLogs}
  - SetDateActive / SetDateComplete: rewrite the date list, broadcast
    {votingDates}
  - SetCurrentDate: local only
  - Reset: restore seed state, broadcast everything

# Queries

PlaceData, ZonalData and CumulativeVotes are pure reads. The same
aggregations are exported as functions (FilterByPlace, Zonal, Cumulative)
for callers holding a record slice.

# Peer Updates

Received payloads decode into a Partial and overwrite the present field
groups wholesale. There is no versioning: the last update applied wins.
The sender receives its own broadcast; applying it again changes nothing.
*/
package store
