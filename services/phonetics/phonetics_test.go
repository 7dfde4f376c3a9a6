package phonetics

import "testing"

func TestNormalizePhoneToDigits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "english digit words",
			input:    "five nine nine one two three four five six",
			expected: "599123456",
		},
		{
			name:     "georgian digit words",
			input:    "ხუთი ცხრა ცხრა ერთი ორი სამი ოთხი ხუთი ექვსი",
			expected: "599123456",
		},
		{
			name:     "georgian zero variants",
			input:    "ნული ნოლი ნოლ",
			expected: "000",
		},
		{
			name:     "oh as zero",
			input:    "five oh five",
			expected: "505",
		},
		{
			name:     "uppercase input",
			input:    "FIVE Nine NINE",
			expected: "599",
		},
		{
			name:     "mixed words and digits",
			input:    "five 99 one two 3",
			expected: "599123",
		},
		{
			name:     "punctuation and formatting stripped",
			input:    "+995 599-12-34-56",
			expected: "995599123456",
		},
		{
			name:     "digit words inside larger words are not replaced",
			input:    "oneself ninety phoney",
			expected: "",
		},
		{
			name:     "georgian word embedded in sentence",
			input:    "ჩემი ნომერია ხუთი ცხრა ცხრა",
			expected: "599",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "no digits at all",
			input:    "no number here",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhoneToDigits(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizePhoneToDigits(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGeorgianizeDigitsForTTS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single digit run",
			input:    "599",
			expected: "ხუთი ცხრა ცხრა",
		},
		{
			name:     "digits embedded in text",
			input:    "ნომერი 21 არის",
			expected: "ნომერი ორი ერთი არის",
		},
		{
			name:     "multiple runs",
			input:    "599 123 456",
			expected: "ხუთი ცხრა ცხრა ერთი ორი სამი ოთხი ხუთი ექვსი",
		},
		{
			name:     "zero",
			input:    "0",
			expected: "ნული",
		},
		{
			name:     "no digits untouched",
			input:    "გამარჯობა, როგორ ხართ?",
			expected: "გამარჯობა, როგორ ხართ?",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeorgianizeDigitsForTTS(tt.input)
			if got != tt.expected {
				t.Errorf("GeorgianizeDigitsForTTS(%q) = %q, expected %q", tt.input, got, tt.expected)
			}

			// Worded output contains no digit runs, so a second pass
			// must be a no-op.
			again := GeorgianizeDigitsForTTS(got)
			if again != got {
				t.Errorf("second GeorgianizeDigitsForTTS pass changed %q to %q", got, again)
			}
		})
	}
}

func TestDigitWordRoundTrip(t *testing.T) {
	inputs := []string{
		"five nine nine one two three four five six",
		"ხუთი ცხრა ცხრა ერთი ორი სამი",
		"zero oh ნული",
		"599 123",
	}

	for _, input := range inputs {
		digits := NormalizePhoneToDigits(input)
		spoken := GeorgianizeDigitsForTTS(digits)
		back := NormalizePhoneToDigits(spoken)
		if back != digits {
			t.Errorf("round trip of %q: digits %q -> spoken %q -> %q", input, digits, spoken, back)
		}
	}
}
