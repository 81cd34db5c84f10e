// Package sqlite provides the console persistence adapter backed by SQLite.
//
// It stores session records (with sealed tokens) and derived cache payloads;
// neither is a source of truth for fleet data.
package sqlite
