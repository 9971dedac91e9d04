// Package config loads meridian's application configuration: where the
// policy document, reference data, entity documents, evidence files, deal
// records, and the audit log live, plus logging and review scheduling
// settings.
//
// Loading follows read → parse → apply defaults → validate. A missing
// config file yields the default configuration rather than an error; the
// domain loaders underneath have their own permissive fallbacks for
// missing reference data.
package config
