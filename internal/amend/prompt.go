// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package amend

import (
	"bytes"
	"strings"
	"text/template"
)

// systemPromptTmpl pins the model to the supplied contract and to the
// marker protocol the parser expects.
var systemPromptTmpl = template.Must(template.New("amend-system").Parse(`You are RegulaAI, an AI legal assistant reviewing a contract for compliance.

Rules:
1. Use ONLY the provided contract. Do not invent clauses.
2. Do NOT add new obligations for either party.
3. Wrap every clause you rewrite in [[UPDATED]]...[[/UPDATED]].
4. Wrap every clause you strike in [[REMOVED]]...[[/REMOVED]].
5. Marker pairs must not nest or overlap, and every opening marker must be closed.
6. Reproduce all other contract text unchanged, in order.
7. Respond with the revised contract text only, no commentary.

Contract:
{{.Contract}}
`))

// userPromptTmpl is the per-request instruction carrying jurisdiction and
// applicable laws.
var userPromptTmpl = template.Must(template.New("amend-user").Parse(`Improve the compliance and clarity of this contract for the {{.Jurisdiction}} jurisdiction.
Applicable regulations: {{.Laws}}.
Mark every change with the [[UPDATED]] and [[REMOVED]] marker pairs.`))

func renderSystemPrompt(contractText string) (string, error) {
	var buf bytes.Buffer
	err := systemPromptTmpl.Execute(&buf, struct{ Contract string }{Contract: contractText})
	return buf.String(), err
}

func renderUserPrompt(opts Options) (string, error) {
	jurisdiction := opts.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = "global"
	}
	laws := "general compliance"
	if len(opts.Laws) > 0 {
		laws = strings.Join(opts.Laws, ", ")
	}

	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct {
		Jurisdiction string
		Laws         string
	}{Jurisdiction: jurisdiction, Laws: laws})
	return buf.String(), err
}
