package domain_test

import (
	"cloud-function-discovery/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	err := domain.ValidateStruct(domain.SearchRequestDTO{Page: 0, PerPage: 60})

	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "q is required")
	assert.Contains(t, verr.Message, "page must be at least 1")
	assert.Contains(t, verr.Message, "per_page must be at most 50")
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, domain.ValidateStruct(domain.SearchRequestDTO{Query: "jazz", Page: 1, PerPage: 20}))
}

func TestValidateStruct_PageIsCapped(t *testing.T) {
	err := domain.ValidateStruct(domain.SearchRequestDTO{Query: "jazz", Page: domain.MaxPage + 1, PerPage: 20})

	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "page must be at most 10000")

	assert.NoError(t, domain.ValidateStruct(domain.SearchRequestDTO{Query: "jazz", Page: domain.MaxPage, PerPage: 20}))
}
