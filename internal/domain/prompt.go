package domain

import "fmt"

// Prompt is a chat request. An empty System sends a single user message.
type Prompt struct {
	System string `json:"system,omitempty"`
	User   string `json:"user"`
}

const correctionSystem = "You are an expert PySpark converter."

// BuildValidationPrompt embeds both sources verbatim and asks for a report
// with the four fixed sections. Inputs are neither escaped nor truncated.
func BuildValidationPrompt(kind ETLKind, etlText, pysparkText string) Prompt {
	return Prompt{User: fmt.Sprintf(`You are an ETL to PySpark conversion validator.

Input ETL file (from %s):
%s

Output PySpark file:
%s

Validate whether the PySpark code correctly implements the ETL logic.
Provide a detailed validation report with clear sections:
- ✅ Correct parts
- ⚠️ Potential issues
- ❌ Missing logic
- 💡 Suggested improvements
`, kind.Label(), etlText, pysparkText)}
}

// BuildCorrectionPrompt asks for a PySpark rewrite that fully implements the
// ETL logic, returned as code only.
func BuildCorrectionPrompt(etlText, pysparkText string) Prompt {
	return Prompt{
		System: correctionSystem,
		User: fmt.Sprintf(`ETL Input:
%s

PySpark Output:
%s

Based on the ETL input and PySpark output above, rewrite the PySpark code so that it
fully and correctly implements the ETL logic.

IMPORTANT:
- Return only the corrected PySpark code.
- If the original file is already correct, return the same code unchanged.
`, etlText, pysparkText),
	}
}
