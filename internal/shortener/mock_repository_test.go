package shortener_test

import (
	"context"
	"errors"

	"github.com/serroba/shortlink/internal/shortener"
)

var errMock = errors.New("mock error")

// mockRepository is a scriptable Repository double.
type mockRepository struct {
	saveErrs   []error // consumed one per Save call, nil once exhausted
	getResults []*shortener.ShortLink
	getErr     error
	existsErr  error
	saved      []*shortener.ShortLink
	getCalls   int
}

func (m *mockRepository) Save(_ context.Context, link *shortener.ShortLink) error {
	m.saved = append(m.saved, link)

	if len(m.saveErrs) == 0 {
		return nil
	}

	err := m.saveErrs[0]
	m.saveErrs = m.saveErrs[1:]

	return err
}

func (m *mockRepository) GetByCode(_ context.Context, _ shortener.Code) (*shortener.ShortLink, error) {
	m.getCalls++

	if m.getErr != nil {
		return nil, m.getErr
	}

	if len(m.getResults) == 0 {
		return nil, shortener.ErrNotFound
	}

	link := m.getResults[0]
	m.getResults = m.getResults[1:]

	if link == nil {
		return nil, shortener.ErrNotFound
	}

	return link, nil
}

func (m *mockRepository) Exists(_ context.Context, _ shortener.Code) (bool, error) {
	return false, m.existsErr
}

func sequence(codes ...string) shortener.CodeGenerator {
	i := 0

	return func() string {
		code := codes[i%len(codes)]
		i++

		return code
	}
}
