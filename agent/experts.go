package agent

import (
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of solving the user's request.

			The user is a self-employed professional in Mexico, preparing tax returns and
			following the health of the business. Learn the skills of the experts from the Tools,
			they keep the context of your previous questions.

			Devise a plan of questions to ask each expert and come up with the best response.
			Figures come from the Accountant only, never make them up.
			Answer in markdown, in the language of the user.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTaxAdvisor returns an expert of the tax regulation, grounded with Google Search.
func NewTaxAdvisor() *Expert {
	return &Expert{
		Name: "TaxAdvisor",
		Description: `This is a tax advisor, aware of the Mexican tax regulation (ISR, IVA,
		provisional payments, deductible expenses, deadlines).
		Ask the TaxAdvisor whenever you need to interpret a rule or check a recent change.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert of the Mexican tax regulation for individuals with business and
			professional activities. You leverage Google Search to ground your assertions in
			official sources, and you cite them.
			You do not compute the user's figures, the Accountant does.
			`}}},
		},
	}
}

// NewAccountant returns the expert reading the user's ledger through the workspace tools.
func NewAccountant(ws *Workspace) *Expert {
	lib := ws.Functions()
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant, in charge of the user's ledger of transactions.
		It computes taxes, provisional payments, cash flow forecasts, the financial health score,
		and finds transfers, duplicates and anomalies.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an accountant in charge of the user's ledger.
			Use the Tools to compute every figure you report, and explain how it was obtained.
			Pardon the approximate language of the other experts and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}
