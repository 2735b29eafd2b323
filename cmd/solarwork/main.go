/*
main.go - Application entry point

PURPOSE:
  The solarwork binary: the HTTP server plus offline commands that work
  directly on the SQLite database.

COMMANDS:
  serve      Run the HTTP API (and the backup scheduler)
  export     Write the stored state to a backup file
  import     Merge a backup file into the database
  payroll    Print or export earnings for a period
  forecast   Print the completion estimate of a project

CONFIGURATION:
  --config   YAML file (missing file falls back to SOLARWORK_* env vars)
  --db       SQLite path, overrides db_path

EXAMPLES:
  # Run the server with a file database
  solarwork serve --db ./data/solarwork.db

  # March payroll as a spreadsheet
  solarwork payroll --month 2025-03 --format xlsx --out march.xlsx

SEE ALSO:
  - root.go: shared flags and setup
  - api/server.go: Router configuration
*/
package main

func main() {
	Execute()
}
