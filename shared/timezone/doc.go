// Package timezone provides timezone utilities for the application.
//
// The application timezone is configured via the APP_TIMEZONE environment
// variable using standard IANA names ("UTC", "America/Denver") and is
// initialized when the package is imported. All schedule timestamps shown to
// admins and field employees go through this package so both see booking
// times in the business's local time.
package timezone
