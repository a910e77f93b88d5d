package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/alphagraph/core"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// If we're in the core subpackage, cd up to project root
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/alphagraph/core"),
	)
	if err != nil {
		panic(err)
	}

	err = g.AddStruct(reflect.TypeFor[core.Chunk](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField())
	if err != nil {
		panic(err)
	}
	g.AddDefinedType(reflect.TypeFor[core.ChunkList]())
	g.AddDefinedType(reflect.TypeFor[core.TokenCorpus]())

	// Vector components are stored as raw little-endian float32, not varint.
	rawFloats := typeops.WithElem(typeops.WithNumEncoding(typeops.Raw))

	err = g.AddStruct(reflect.TypeFor[core.VectorSet](),
		structops.WithField(),
		structops.WithField(typeops.WithElem(rawFloats)))
	if err != nil {
		panic(err)
	}

	err = g.AddStruct(reflect.TypeFor[core.CachedEmbedding](),
		structops.WithField(),
		structops.WithField(rawFloats))
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/records_mus.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
