package services

import (
	"testing"

	"studyquiz/models"
)

func TestMaterialMatchesSearch(t *testing.T) {
	service := &MaterialService{}

	tests := []struct {
		name        string
		title       string
		content     string
		searchTerms []string
		expected    bool
	}{
		{
			name:        "exact match in content",
			content:     "Photosynthesis converts light energy into chemical energy",
			searchTerms: []string{"photosynthesis"},
			expected:    true,
		},
		{
			name:        "case insensitive match",
			content:     "PHOTOSYNTHESIS happens in chloroplasts",
			searchTerms: []string{"photosynthesis"},
			expected:    true,
		},
		{
			name:        "match in title only",
			title:       "Cell Biology Lecture Notes",
			content:     "Overview of today's topics",
			searchTerms: []string{"biology"},
			expected:    true,
		},
		{
			name:        "typo tolerance",
			content:     "The mitochondria is the powerhouse of the cell",
			searchTerms: []string{"mitochndria"},
			expected:    true,
		},
		{
			name:        "multiple terms - one matches",
			content:     "Chapter on thermodynamics and entropy",
			searchTerms: []string{"entropy", "osmosis"},
			expected:    true,
		},
		{
			name:        "multiple terms - none match",
			content:     "Chapter on thermodynamics and entropy",
			searchTerms: []string{"osmosis", "meiosis"},
			expected:    false,
		},
		{
			name:        "punctuation handling",
			content:     "Key concepts: diffusion, osmosis, and active transport.",
			searchTerms: []string{"osmosis"},
			expected:    true,
		},
		{
			name:        "no match",
			content:     "Introduction to organic chemistry",
			searchTerms: []string{"calculus"},
			expected:    false,
		},
		{
			name:        "empty search terms",
			content:     "Any content at all",
			searchTerms: []string{},
			expected:    false,
		},
		{
			name:        "empty content",
			content:     "",
			searchTerms: []string{"test"},
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			material := &models.Material{
				Title:       tt.title,
				ContentText: tt.content,
			}

			result := service.materialMatchesSearch(material, tt.searchTerms)
			if result != tt.expected {
				t.Errorf("materialMatchesSearch() = %v, expected %v for content: %q with terms: %v",
					result, tt.expected, tt.content, tt.searchTerms)
			}
		})
	}
}

func TestValidateCreateMaterialRequest(t *testing.T) {
	service := &MaterialService{}

	fileName := "lecture1.pdf"
	sourceURL := "https://example.com/notes"
	empty := "   "

	tests := []struct {
		name    string
		req     *models.CreateMaterialRequest
		wantErr bool
	}{
		{
			name:    "nil request",
			req:     nil,
			wantErr: true,
		},
		{
			name: "valid text material",
			req: &models.CreateMaterialRequest{
				Title:       "Chapter 1",
				SourceType:  models.MaterialSourceText,
				ContentText: "Cells are the basic unit of life.",
			},
			wantErr: false,
		},
		{
			name: "valid file material",
			req: &models.CreateMaterialRequest{
				Title:       "Lecture slides",
				SourceType:  models.MaterialSourceFile,
				FileName:    &fileName,
				ContentText: "Slide text extracted from the PDF.",
			},
			wantErr: false,
		},
		{
			name: "valid url material",
			req: &models.CreateMaterialRequest{
				Title:       "Reference article",
				SourceType:  models.MaterialSourceURL,
				SourceURL:   &sourceURL,
				ContentText: "Text scraped from the article.",
			},
			wantErr: false,
		},
		{
			name: "file material without file name",
			req: &models.CreateMaterialRequest{
				Title:       "Lecture slides",
				SourceType:  models.MaterialSourceFile,
				ContentText: "Slide text.",
			},
			wantErr: true,
		},
		{
			name: "url material without url",
			req: &models.CreateMaterialRequest{
				Title:       "Article",
				SourceType:  models.MaterialSourceURL,
				ContentText: "Article text.",
			},
			wantErr: true,
		},
		{
			name: "url material with blank url",
			req: &models.CreateMaterialRequest{
				Title:       "Article",
				SourceType:  models.MaterialSourceURL,
				SourceURL:   &empty,
				ContentText: "Article text.",
			},
			wantErr: true,
		},
		{
			name: "missing title",
			req: &models.CreateMaterialRequest{
				SourceType:  models.MaterialSourceText,
				ContentText: "Some content.",
			},
			wantErr: true,
		},
		{
			name: "missing content",
			req: &models.CreateMaterialRequest{
				Title:      "Chapter 2",
				SourceType: models.MaterialSourceText,
			},
			wantErr: true,
		},
		{
			name: "unknown source type",
			req: &models.CreateMaterialRequest{
				Title:       "Chapter 3",
				SourceType:  "AUDIO",
				ContentText: "Transcript.",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.validateCreateRequest(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCreateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func BenchmarkMaterialMatchesSearch(b *testing.B) {
	service := &MaterialService{}
	material := &models.Material{
		Title:       "Cell Biology",
		ContentText: "Photosynthesis converts light energy into chemical energy inside chloroplasts, while cellular respiration in mitochondria releases that energy as ATP.",
	}
	terms := []string{"respiration", "chloroplast"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		service.materialMatchesSearch(material, terms)
	}
}
