package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/pvallin/passage/entity"
)

// EntityFactory creates the stream entities for a dataset spec, with concrete
// implementations resolved from the registered source/sink factories.
type EntityFactory interface {
	CreateExtractor(ctx context.Context, spec *entity.Spec, instance string) (entity.Extractor, error)
	CreateTransformer(ctx context.Context, spec *entity.Spec) (Transformer, error)
	CreateLoader(ctx context.Context, spec *entity.Spec, instance string) (entity.Loader, error)
}

type StreamBuilder struct {
	entityFactory EntityFactory
}

func NewStreamBuilder(entityFactory EntityFactory) *StreamBuilder {
	return &StreamBuilder{entityFactory: entityFactory}
}

func (s *StreamBuilder) Build(ctx context.Context, spec *entity.Spec) (*Stream, error) {

	instance := createInstanceAlias()

	extractor, err := s.entityFactory.CreateExtractor(ctx, spec, instance)
	if err != nil {
		return nil, err
	}
	transformer, err := s.entityFactory.CreateTransformer(ctx, spec)
	if err != nil {
		return nil, err
	}
	loader, err := s.entityFactory.CreateLoader(ctx, spec, instance)
	if err != nil {
		return nil, err
	}

	return NewStream(spec, instance, extractor, transformer, loader), nil
}

// The truly unique IDs of a stream instance are the struct pointers used for
// execution logic, so the alias name does not need guaranteed uniqueness. A short
// pronounceable alias is unique enough for troubleshooting and more readable in
// logs than a uuid.
func createInstanceAlias() string {
	var a alias
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return a.cons(r).vow(r).cons(r).cons(r).vow(r).cons(r).name()
}

type alias struct {
	str string
}

func (a alias) vow(r *rand.Rand) alias {
	var vowels = []rune{'a', 'e', 'i', 'o', 'u', 'y'}
	v := vowels[r.Intn(len(vowels))]
	return alias{str: a.str + string(v)}
}

func (a alias) cons(r *rand.Rand) alias {
	var consonants = []rune{'b', 'c', 'd', 'f', 'g', 'h', 'j', 'k', 'l', 'm', 'n',
		'p', 'q', 'r', 's', 't', 'v', 'w', 'x', 'z'}
	c := consonants[r.Intn(len(consonants))]
	return alias{str: a.str + string(c)}
}

func (a alias) name() string {
	return a.str
}
