package domain

// AstronoteSummary is an astronote from the TNS listing that mentions TDEs.
type AstronoteSummary struct {
	Title   string
	Authors []string
	Link    string
	Objects []AstronoteObject
}

// AstronoteObject is one qualifying row of a note's objects table.
// Coordinates are kept as printed on the page.
type AstronoteObject struct {
	Name           string
	RA             string
	Dec            string
	Classification string
	Redshift       *float64
}
