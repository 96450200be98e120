package llm

import "fmt"

// ExtractClaimsPrompt asks for the checkable assertions in a query as a JSON array
func ExtractClaimsPrompt(query string) string {
	return fmt.Sprintf(`Extract only the claims and facts in the following query that could be fact-checked.
Return them as a JSON array of strings and nothing else.
If the query contains no claims (for example, it is only a question), return an empty array [].

Query: "%s"`, query)
}

// OptimizeClaimPrompt asks for a self-contained rewrite of one claim
func OptimizeClaimPrompt(claim string) string {
	return fmt.Sprintf(`Rewrite the following claim so that its core assertion can be fact-checked against a relevant article without any additional context.
Return a single rewritten claim and nothing else.

Claim: %s`, claim)
}

// ArticleTitlePrompt asks for the Wikipedia article most likely to settle a claim
func ArticleTitlePrompt(claim string) string {
	return fmt.Sprintf(`Return the title of the Wikipedia article that contains the answer to the claim "%s".
Return only the title.`, claim)
}

// FactCheckPrompt asks for a True/False label plus one verbatim excerpt
func FactCheckPrompt(claim, content string) string {
	return fmt.Sprintf(`Using the scraped web page content below, analyze the claim and provide:
1. A label of either "True" or "False" depending on whether the content supports the claim
2. One contiguous passage copied from the content that verifies or disproves the claim

IMPORTANT: The evidence must be a short, single, unbroken string copied exactly from the scraped content.
Do not join separate sentences or paragraphs. Pick the most relevant passage that directly settles the claim.

Respond with JSON in exactly this format:
{"label": "True" or "False", "evidence": "single contiguous passage from the article"}

Claim: "%s"

Scraped Content:
%s`, claim, content)
}
