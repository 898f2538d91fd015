package ingest

import "strings"

// amountCodes maps the BMF asset/income/revenue code to a representative
// dollar amount for the range the code stands for.
var amountCodes = map[string]int64{
	"":  0,
	"0": 0,
	"1": 5_000,       // $1-9,999
	"2": 25_000,      // $10,000-24,999
	"3": 62_500,      // $25,000-99,999
	"4": 175_000,     // $100,000-249,999
	"5": 375_000,     // $250,000-499,999
	"6": 750_000,     // $500,000-999,999
	"7": 2_500_000,   // $1,000,000-4,999,999
	"8": 7_500_000,   // $5,000,000-9,999,999
	"9": 25_000_000,  // $10,000,000-49,999,999
	"A": 75_000_000,  // $50,000,000-99,999,999
	"B": 175_000_000, // $100,000,000-249,999,999
	"C": 375_000_000, // $250,000,000-499,999,999
	"D": 750_000_000, // $500,000,000+
}

// AmountForCode converts a BMF amount code to its dollar bucket.
// Unrecognized codes map to 0, never an error.
func AmountForCode(code string) int64 {
	return amountCodes[strings.ToUpper(strings.TrimSpace(code))]
}
