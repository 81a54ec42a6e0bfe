package query

import "strconv"

var unitWords = [...]string{
	"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tensWords = [...]string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}

// numberWords spells a 1-2 digit run as words ("5" -> FIVE, "21" -> TWENTY ONE).
func numberWords(digits string) []string {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n > 99 {
		return []string{digits}
	}
	if n < 20 {
		return []string{unitWords[n]}
	}
	if n%10 == 0 {
		return []string{tensWords[n/10]}
	}
	return []string{tensWords[n/10], unitWords[n%10]}
}

// wordDigits maps a spelled procedure number back to its digit.
var wordDigits = map[string]string{
	"ONE": "1", "TWO": "2", "THREE": "3", "FOUR": "4", "FIVE": "5",
	"SIX": "6", "SEVEN": "7", "EIGHT": "8", "NINE": "9",
}
