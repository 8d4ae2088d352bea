/*
Package models defines the domain, row, and request/response types shared by
the server, the store, and the tally CLI.

# Domain Types

Client-side state that peers exchange over the broadcast channel:

  - Place: a polling station with its registered voter count
  - VotingDate: a scheduled date with active/complete flags
  - VotingInput: a submission before it is stamped
  - VotingData: a stamped, append-only submission
  - ActivityLog: the feed entry derived from each submission
  - ZonalData, CumulativeVotes: aggregate query results

JSON names on these types are camelCase (placeId, votesCount, isActive)
because every client decodes them.

# Row Types

Relational rows returned by the repository package use snake_case JSON:

  - User, VotingDataRow, VotingDateRow, SystemLog, Totals

# Reference Data

Places holds the eight fixed stations; SeedDates returns the four scheduled
dates. Both are compiled in.

	total := models.TotalVoters(models.Places) // 97741

# Roles

	RoleAPO        = "APO"
	RolePO         = "PO"
	RoleSuperAdmin = "SUPER_ADMIN"
*/
package models
