package cache

import (
	"time"
	// Embedded tzdata keeps the cutover zone loadable in scratch containers.
	_ "time/tzdata"
)

// The provider publishes next-day prices once per day around a known local
// time. The refresh policy latches on that instant so at most one fetch is
// attempted per local day under normal polling cadence.
const (
	DefaultCutoverHour   = 14
	DefaultCutoverMinute = 30
)

// DefaultCutoverZone is the local zone the daily cutover is anchored to.
var DefaultCutoverZone = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		panic("cache: cannot load Europe/Helsinki: " + err.Error())
	}
	return loc
}()

// IsRefreshDue decides whether a remote fetch is due. It is a pure
// function: no I/O, never fails, idempotent between cutovers.
//
// It returns true when there is no previous fetch, when the local calendar
// day rolled over since the last fetch, or when the last fetch predates
// today's cutover and now is at or past it.
func IsRefreshDue(lastFetch *time.Time, now time.Time, cutoverHour, cutoverMinute int, zone *time.Location) bool {
	if lastFetch == nil {
		return true
	}

	lastFetchLocal := lastFetch.In(zone)
	nowLocal := now.In(zone)

	ly, lm, ld := lastFetchLocal.Date()
	ny, nm, nd := nowLocal.Date()
	if ly != ny || lm != nm || ld != nd {
		// Only a forward rollover counts; a clock stepped backwards across
		// midnight should not trigger an extra fetch.
		lastMidnight := time.Date(ly, lm, ld, 0, 0, 0, 0, zone)
		nowMidnight := time.Date(ny, nm, nd, 0, 0, 0, 0, zone)
		return nowMidnight.After(lastMidnight)
	}

	cutoverToday := time.Date(ny, nm, nd, cutoverHour, cutoverMinute, 0, 0, zone)
	return lastFetchLocal.Before(cutoverToday) && !nowLocal.Before(cutoverToday)
}
