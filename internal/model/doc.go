// Package model defines the data structures shared by the scraping packages.
//
// This package contains the following main types:
//   - Page: one fetched candidate page with its extracted data
//   - SiteResult: the emails and display title collected for one site
//   - ScrapeReport: the ordered results of one pipeline run
//   - Record: the flat Site/Nom/Emails row used for exports
//
// The models are serializable to JSON for report output and database storage.
package model
