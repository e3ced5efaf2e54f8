// Package main provides the entry point for the mailscout CLI.
//
// mailscout finds businesses matching a search query, visits a few
// well-known contact pages on each site and reports the email addresses
// it finds. Runs are capped per day by a counter kept in a local SQLite
// database.
//
// Usage:
//
//	mailscout scan plombier Paris
//	mailscout scan --urls sites.txt --csv -o contacts.csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
