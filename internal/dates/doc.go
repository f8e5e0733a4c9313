// Package dates parses free-form Spanish date expressions from scraped event
// listings into a comparable day-level representation.
//
// Input text is matched accent-insensitively against the Spanish month names
// and common abbreviations. Three shapes are recognized, in priority order:
// month-long ("durante todo el mes de mayo"), day ranges ("del 9 al 18 de
// mayo", "9-18 mayo") and single days ("11 de mayo"). Years in the input are
// accepted but discarded; the caller supplies the reference month when the
// text names none. Time-of-day extraction is a separate pass.
package dates
