package analysis

import "fmt"

const systemPrompt = "You are a senior database engineer reviewing SQL changes. " +
	"Answer with a single JSON object and nothing else."

// Prompt builds the user message comparing the two queries.
func Prompt(original, modified string) string {
	return fmt.Sprintf(`Compare the following two SQL queries and provide a structured analysis of the changes.

ORIGINAL SQL:
%s

MODIFIED SQL:
%s

Provide the output in JSON format with the following fields:
- summary: A concise natural language explanation of what changed functionally.
- impact: Potential impact of this change (e.g., performance, data integrity, result set changes).
- optimizationTips: An array of short tips if the modified query can be improved further (max %d tips).
`, original, modified, MaxTips)
}
