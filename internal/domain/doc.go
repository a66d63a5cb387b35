// Package domain cleans Johns Hopkins CSSE COVID-19 daily report data.
//
// # Data Source
//
// The CSSE repository publishes one CSV per report date under
// csse_covid_19_data/csse_covid_19_daily_reports, named MM-DD-YYYY.csv. The
// header layout changed several times during 2020; this package reconciles
// every revision into one canonical schema.
//
// # Schema Revisions
//
// Early reports:
//
//	Province/State, Country/Region, Last Update, Confirmed, Deaths, Recovered
//	later with Latitude, Longitude appended.
//
// Reports from late March 2020 on:
//
//	FIPS, Admin2, Province_State, Country_Region, Last_Update, Lat, Long_,
//	Confirmed, Deaths, Recovered, Active, Combined_Key, ...
//
// [CanonicalizeColumns] maps the newer headers onto the older names per file;
// [NormalizeSchema] then snake-cases everything after concatenation
// ("Province/State" -> province_state), renames admin2 to county, and drops
// fips.
//
// # Location Conventions
//
// Early US rows put a locality and a state abbreviation in Province/State:
//
//	"Cook County, IL"   -> city "Cook County", province_state "Illinois"
//	"Washington, D.C."  -> city "Washington", province_state "District of Columbia"
//	"California"        -> city empty, province_state unchanged
//
// Country/Region values drift between reports ("Mainland China", "Korea,
// South", "Iran (Islamic Republic of)") and are corrected from a static
// table. The sentinels "None" (province) and "unassigned" (county) mean
// missing.
//
// Combined_Key is the source's own location identifier and becomes the
// location key. Rows without it (every pre-March report) cannot be keyed and
// are dropped; [ReconcileStats] reports how many.
//
// # Error Policy
//
// Field transforms are wrapped in a [Fallback]: malformed locality strings
// fall back to empty and unknown state abbreviations keep their original
// value, so one bad cell never stops a batch. Timestamps are the exception:
// an unparseable last_update fails the whole run with [ErrBadTimestamp].
package domain
