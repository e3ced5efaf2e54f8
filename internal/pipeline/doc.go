// Package pipeline runs a complete scrape: quota check, site discovery,
// per-site scraping and report assembly.
//
// Sites are processed one at a time in search-provider order. A site that
// fails or yields no email is dropped from the report without aborting the
// run; only input validation, quota refusal, provider failures and counter
// store failures reach the caller.
//
// The daily request counter is an injected CounterStore. Run reads it before
// touching the network and refuses the whole run when the requested count
// would exceed the daily cap.
package pipeline
