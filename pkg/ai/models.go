package ai

// ModelID identifies one entry of the model catalog, in
// "provider:short-name" form.
type ModelID string

const (
	ModelGPT4o        ModelID = "openai:gpt-4o"
	ModelMistralLarge ModelID = "mistral:large"
	ModelGeminiFlash  ModelID = "google:gemini-2.0-flash-001"
	ModelDryRun       ModelID = "dryrun:echo"
)

// DefaultModel is selected until the user picks another one.
const DefaultModel = ModelGPT4o

// ModelInfo maps a catalog entry to its provider and wire-level model name.
type ModelInfo struct {
	ID        ModelID
	Name      string
	Provider  ProviderType
	WireModel string
}

var modelCatalog = []ModelInfo{
	{ID: ModelGPT4o, Name: "GPT-4o", Provider: ProviderOpenAI, WireModel: "gpt-4o"},
	{ID: ModelMistralLarge, Name: "Mistral Large", Provider: ProviderMistral, WireModel: "mistral-large-latest"},
	{ID: ModelGeminiFlash, Name: "Gemini 2.0 Flash", Provider: ProviderGoogle, WireModel: "gemini-2.0-flash-001"},
	{ID: ModelDryRun, Name: "Dry Run", Provider: ProviderDryRun, WireModel: "echo"},
}

// Models returns the selectable model catalog in display order.
func Models() []ModelInfo {
	out := make([]ModelInfo, len(modelCatalog))
	copy(out, modelCatalog)
	return out
}

// LookupModel resolves a catalog id.
func LookupModel(id ModelID) (ModelInfo, bool) {
	for _, m := range modelCatalog {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// NextModel returns the catalog entry after id, wrapping around. Used by the
// model picker to cycle choices.
func NextModel(id ModelID) ModelInfo {
	for i, m := range modelCatalog {
		if m.ID == id {
			return modelCatalog[(i+1)%len(modelCatalog)]
		}
	}
	return modelCatalog[0]
}
