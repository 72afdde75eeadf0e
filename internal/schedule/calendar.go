package schedule

import (
	"sort"

	"serviceanalyst.onebusaway.org/internal/feed"
)

// ServiceSet is the set of service identifiers active on a date.
type ServiceSet map[string]struct{}

// Contains reports whether id is active.
func (s ServiceSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the identifiers in lexical order.
func (s ServiceSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveServices returns the services active on date: weekly patterns whose range covers the date,
// plus Added exceptions, minus Removed exceptions. Removal is applied last so it wins over both.
// An empty result fails with *NoServiceError.
func ResolveServices(f *feed.Feed, date ServiceDate) (ServiceSet, error) {
	active := ServiceSet{}
	for _, entry := range f.Calendar {
		if entry.Covers(date.Int) && entry.RunsOn(date.Weekday) {
			active[entry.ServiceID] = struct{}{}
		}
	}

	var removed []string
	for _, exception := range f.CalendarDates {
		if exception.Date != date.Int {
			continue
		}
		switch exception.ExceptionType {
		case feed.ExceptionAdded:
			active[exception.ServiceID] = struct{}{}
		case feed.ExceptionRemoved:
			removed = append(removed, exception.ServiceID)
		}
	}
	for _, id := range removed {
		delete(active, id)
	}

	if len(active) == 0 {
		return nil, &NoServiceError{Date: date.Int, Feed: f.Name}
	}
	return active, nil
}
