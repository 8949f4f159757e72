package provider

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-resty/resty/v2"

	"github.com/huimingz/commitsmith/internal/catalog"
	"github.com/huimingz/commitsmith/internal/log"
)

type openRouterModel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Architecture *struct {
		InputModalities  []string `json:"input_modalities"`
		OutputModalities []string `json:"output_modalities"`
	} `json:"architecture"`
}

type openRouterModelList struct {
	Data []openRouterModel `json:"data"`
}

// generatesText reports whether the model produces text. Rows without
// modality data are assumed to be chat models.
func (m openRouterModel) generatesText() bool {
	if m.Architecture == nil || len(m.Architecture.OutputModalities) == 0 {
		return true
	}
	return slices.Contains(m.Architecture.OutputModalities, "text")
}

// openRouterLister lists the OpenRouter catalog, which carries modality data
// the plain OpenAI listing lacks.
func openRouterLister(desc Descriptor, transport *Transport) listFunc {
	client := resty.NewWithClient(transport.Client).SetBaseURL(desc.BaseURL)

	return func(ctx context.Context, apiKey string) ([]catalog.Entry, error) {
		var list openRouterModelList

		log.DebugRequest("GET", desc.BaseURL+"/models")
		resp, err := client.R().
			SetContext(ctx).
			SetAuthToken(apiKey).
			SetResult(&list).
			Get("/models")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, upstreamError(desc.ID, resp.StatusCode(), fmt.Sprintf("list models: %s", resp.String()))
		}

		entries := make([]catalog.Entry, 0, len(list.Data))
		for _, m := range list.Data {
			entries = append(entries, catalog.Entry{
				ID:          m.ID,
				DisplayName: m.Name,
				Chat:        m.generatesText(),
			})
		}
		return entries, nil
	}
}
