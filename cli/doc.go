/*
Package cli implements tally, the command-line voting client.

Every command opens the local store (a SQLite file, see --storage), hydrates
the voting state from it, and unless --offline joins the sync room on the
server so changes reach other clients:

	tally submit --place 3 --votes 120 --male 70 --female 50 --role APO
	tally zonal --date 2024-12-05
	tally cumulative --up-to 2024-12-06
	tally place 3
	tally dates list
	tally dates activate 2024-12-05
	tally dates complete 2024-12-04 [--undo]
	tally current 2024-12-06
	tally logs --limit 5
	tally reset --yes
	tally watch --duration 10m

Queued updates are flushed to the server before the command exits.

# Output

--format text (default) prints tables; --format json prints one envelope
per result:

	{"status":"ok","data":{...}}

# Environment

VOTING_SERVER_URL and VOTING_STORAGE_PATH set the defaults for --server and
--storage.

# Exit Codes

	0  success
	1  invalid input
	2  local store or server unavailable
*/
package cli
