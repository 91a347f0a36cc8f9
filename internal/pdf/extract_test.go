package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleText = `Deep Residual Learning for Image Recognition
Kaiming He, Xiangyu Zhang

Abstract: Deeper neural networks are more difficult to train. We
present a residual learning framework.

1. Introduction
Network depth is of crucial importance.

2. Related Work
Residual representations have been studied before.

Methods
We reformulate the layers as learning residual functions.

3. Results
Our 152-layer network wins ILSVRC.

Conclusion
Residual learning eases optimization.
`

func TestExtractSections(t *testing.T) {
	sections := ExtractSections(sampleText)

	assert.Contains(t, sections, "introduction")
	assert.Contains(t, sections, "related work")
	assert.Contains(t, sections, "methods")
	assert.Contains(t, sections, "results")
	assert.Contains(t, sections, "conclusion")

	assert.Contains(t, sections["methods"], "residual functions")
	assert.Contains(t, sections["results"], "152-layer")
	// preamble before the first heading belongs to the introduction
	assert.Contains(t, sections["introduction"], "crucial importance")
}

func TestExtractSections_NoHeadings(t *testing.T) {
	sections := ExtractSections("just a plain paragraph\nwith no structure")
	assert.Equal(t, map[string]string{
		"introduction": "just a plain paragraph\nwith no structure",
	}, sections)
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Deep Residual Learning for Image Recognition", ExtractTitle(sampleText))
}

func TestExtractTitle_SkipsAbstractLine(t *testing.T) {
	text := "short\nAbstract: not the title of anything\nA Study of Retrieval Systems\n"
	assert.Equal(t, "A Study of Retrieval Systems", ExtractTitle(text))
}

func TestExtractAbstract(t *testing.T) {
	text := "Title Line Here\nAbstract: We study a\nthing carefully.\n\nIntroduction\nBody."
	assert.Equal(t, "We study a thing carefully.", ExtractAbstract(text))
}

func TestExtractAbstract_Missing(t *testing.T) {
	assert.Equal(t, "", ExtractAbstract("no such heading anywhere"))
}
