package models

// ENPSQuestionText is the canonical wording of the built-in eNPS question.
// Published surveys hold independent copies of it, so cross-survey analysis
// locates the question by this exact text.
const ENPSQuestionText = "How likely are you to recommend this company as a place to work?"

// StandardQuestions returns the built-in question bank cloned into new
// organizations. Callers receive fresh copies and may attach them to a
// template or organization.
func StandardQuestions() []*Question {
	return []*Question{
		NewSliderQuestion(ENPSQuestionText, TypeENPS, 1, 10),
		NewFreeTextQuestion("What is your current work role?", TypeBuiltin),
		NewSliderQuestion("How satisfied are you with your current workload?", TypeBuiltin, 1, 10),
		NewMultipleChoiceQuestion(
			"How often do you receive feedback on your work?",
			TypeBuiltin,
			[]string{"Never", "Rarely", "Sometimes", "Often", "Always"},
		),
		NewFreeTextQuestion("What is the biggest challenge in your work?", TypeBuiltin),
	}
}
