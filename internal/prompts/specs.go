package prompts

const classifySpec = `Respond with a JSON object matching this exact structure:

{
  "label": "<category>",
  "confidence": 0.0
}

Field constraints:
- label: One of exactly: No Guests, Identity-based rejection,
  Topic-based rejection, Qualification-based rejection, Pay-to-Play,
  Accepted, Conditional, Others. Use the category name verbatim.
- confidence: Number in [0, 1] reflecting how explicit the sender's
  decision is. 1.0 means the label is stated outright; values below 0.5
  mean the email is ambiguous between categories.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never invent a label outside the list; when nothing fits, use Others`

const queryGenerationSpec = `Respond with a JSON object matching this exact structure:

{
  "query": "<description>"
}

Field constraints:
- query: The two-paragraph retrieval description as a single string,
  paragraphs separated by a blank line.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Do not quote the original email verbatim; describe its sentiment and
  direction in your own words`

const draftGenerationSpec = `Respond with a JSON object matching this exact structure:

{
  "draft": "<email body>"
}

Field constraints:
- draft: The full reply body, ready for human editing. Placeholders are
  written in square brackets (e.g. [booking link], [date options]).

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- The draft contains only the email body: no subject line, no commentary,
  no analysis`

const rejectionAnalysisSpec = `Respond with a JSON object matching this exact structure:

{
  "kind": "<hard|soft>",
  "angles": ["<angle1>", "<angle2>"]
}

Field constraints:
- kind: "hard" when the rejection is a complete dead end, "soft" when it
  could be challenged with additional information.
- angles: For a soft rejection, two to four specific angles that could be
  used to challenge it. Empty array for a hard rejection.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Angles must be grounded in the email and the client context provided,
  never generic persuasion advice`

const rejectionDraftSpec = `Respond with a JSON object matching this exact structure:

{
  "draft": "<email body>"
}

Field constraints:
- draft: The full challenge reply body, ready for human editing.
  Placeholders are written in square brackets.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- The draft contains only the email body: no subject line, no commentary`

const draftEditingSpec = `Respond with a JSON object matching this exact structure:

{
  "draft": "<refined email body>"
}

Field constraints:
- draft: The improved email text and nothing else. No commentary,
  analysis, or explanation of the edits.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Preserve placeholders from the input draft unless the edit removes the
  sentence containing them`

const notificationSpec = `Respond with a JSON object matching this exact structure:

{
  "summary": "<notification text>"
}

Field constraints:
- summary: The complete notification message, following the structure in
  the instructions. Two to three sentences for the email summary portion.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing`

var specs = map[Stage]string{
	StageClassify:          classifySpec,
	StageQueryGeneration:   queryGenerationSpec,
	StageDraftGeneration:   draftGenerationSpec,
	StageRejectionAnalysis: rejectionAnalysisSpec,
	StageRejectionDraft:    rejectionDraftSpec,
	StageDraftEditing:      draftEditingSpec,
	StageNotification:      notificationSpec,
}

// Spec returns the hardcoded specification for a pipeline stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
