package services

import (
	"strings"

	"google.golang.org/genai"
)

const newsPrompt = `Busca noticias de hoy relacionadas con:
  - Diseño Gráfico
  - Merchandising
  - Bellas Artes
  - Aplicaciones del diseño gráfico a la arquitectura y decoración
  - Productos de diseño industrial

Limita la búsqueda a publicaciones de las últimas 24 horas.
Devuelve una lista estructurada con títulos, fuentes, URL, categoría y un resumen ejecutivo de cada noticia en español.
Finaliza con un texto narrativo largo que unifique todas las noticias para ser leído como un podcast.`

const speechPromptPrefix = "Lee el siguiente resumen de noticias de diseño con tono profesional y pausado: "

func speechPrompt(text string) string {
	return speechPromptPrefix + text
}

// newsSchema mirrors models.NewsReport; every field is required.
var newsSchema = &genai.Schema{
	Type:        genai.TypeObject,
	Description: "Daily design and arts news report",
	Properties: map[string]*genai.Schema{
		"date": {
			Type: genai.TypeString,
		},
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":    {Type: genai.TypeString},
					"source":   {Type: genai.TypeString},
					"url":      {Type: genai.TypeString},
					"summary":  {Type: genai.TypeString},
					"category": {Type: genai.TypeString},
				},
				Required: []string{"title", "source", "url", "summary", "category"},
			},
		},
		"fullText": {
			Type:        genai.TypeString,
			Description: "Narrativa completa para audio",
		},
	},
	Required: []string{"date", "items", "fullText"},
}

// cleanJSONResponse strips markdown fences and any prose around the JSON object.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
