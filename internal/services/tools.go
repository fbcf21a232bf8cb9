package services

// ToolKeys lists the Tools tab entries in display order.
var ToolKeys = []string{"add_attack", "provide_reason", "journaling", "meditations", "audio_meditation"}

var toolRoutes = map[string]string{
	"add_attack":       "/api/attacks",
	"provide_reason":   "/api/attacks",
	"journaling":       "/api/journal",
	"meditations":      "",
	"audio_meditation": "",
}

type Tool struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Route       string `json:"route,omitempty"`
}

func BuildTools(translator Translator, language string) []Tool {
	tools := make([]Tool, 0, len(ToolKeys))
	for _, key := range ToolKeys {
		tools = append(tools, Tool{
			Key:         key,
			Title:       translator.Translate(language, "tool."+key+".title"),
			Description: translator.Translate(language, "tool."+key+".description"),
			Route:       toolRoutes[key],
		})
	}
	return tools
}
