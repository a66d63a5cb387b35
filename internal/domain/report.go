package domain

import "github.com/couchcryptid/covid-case-etl/internal/frame"

// DailyReport is one source CSV after its headers were canonicalized.
type DailyReport struct {
	Name  string
	Frame frame.Frame
}
