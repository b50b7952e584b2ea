// Package logging builds the logrus loggers used across dhlib.
//
// Levels are selected by name (none, debug, info, warning, error, fatal) from
// flags or the [log] section of dhlib.ini. Components take a *logrus.Logger
// and log through Component entries; exponents and shared secrets are never
// passed as fields.
package logging
