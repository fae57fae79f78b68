package store

// MigrateURLForTest exposes migrateURL to the external test package.
var MigrateURLForTest = migrateURL
