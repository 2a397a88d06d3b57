package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/textutil"
)

func TestTag_PopulatesMetadata(t *testing.T) {
	p := model.JobPosting{
		Title:       "Desenvolvedor Frontend Sênior",
		Company:     "Acme",
		Description: "Stack: React, TypeScript e Node.js. Deploy em AWS com Docker.",
	}
	got := Tag(p, "desenvolvedor react")

	require.NotNil(t, got.Metadata)
	assert.Nil(t, p.Metadata, "input is not mutated")
	assert.Equal(t, []string{"programming", "frontend", "backend", "devops"}, got.Metadata.Categories)
	assert.Equal(t, []string{"typescript", "react", "aws", "docker"}, got.Metadata.TechStack)
	assert.Equal(t, model.SenioritySenior, got.Metadata.SeniorityLevel)
	assert.Equal(t, 30.0, got.Metadata.RelevanceScore)
}

func TestCategories_ShortKeywordsNeedBoundaries(t *testing.T) {
	assert.Empty(t, Categories(textutil.Fold("Build quality gardens")))
	assert.Equal(t, []string{"frontend", "design"}, Categories("ui designer"))
}

func TestTechStack_SymbolKeywords(t *testing.T) {
	got := TechStack(textutil.Fold("Experiência com C#, C++ e ASP.NET; Go é um plus"))
	assert.Equal(t, []string{"c#", "c++", "go", "asp.net"}, got)
	assert.NotContains(t, TechStack("google golang"), "go")
}

func TestSeniority_PriorityOrder(t *testing.T) {
	cases := map[string]model.Seniority{
		"estagiário em engenharia":          model.SeniorityJunior,
		"desenvolvedor pleno":               model.SeniorityMid,
		"sr software engineer":              model.SenioritySenior,
		"tech lead":                         model.SeniorityLead,
		"junior developer, reports to lead": model.SeniorityJunior,
		"software engineer":                 model.SeniorityNotSpecified,
		"midfield analyst":                  model.SeniorityNotSpecified,
	}
	for text, want := range cases {
		assert.Equal(t, want, Seniority(textutil.Fold(text)), text)
	}
}

func TestRelevance(t *testing.T) {
	text := textutil.Fold("Engenheiro de dados com Python e Spark")
	assert.Equal(t, 15.0, Relevance(text, "python"))
	assert.Equal(t, 10.0, Relevance(text, "dado"), "substring only")
	assert.Equal(t, 30.0, Relevance(text, "Engenheiro de Dados"), "short tokens ignored")
	assert.Zero(t, Relevance(text, "java"))
}

func TestTagAll(t *testing.T) {
	out := TagAll([]model.JobPosting{{Title: "QA Analyst"}, {Title: "Data Scientist"}}, "qa")
	require.Len(t, out, 2)
	assert.Contains(t, out[0].Metadata.Categories, "qa")
	assert.Contains(t, out[1].Metadata.Categories, "data")
	assert.Zero(t, out[0].Metadata.RelevanceScore)
}
