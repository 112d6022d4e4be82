package keypath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/keypath"
	"github.com/csnlower/csnlower/model"
)

func TestTargetPathsAndBindingsAndKeyPathsForEntitySetTarget(t *testing.T) {
	s := model.New()
	author := &model.Definition{Name: "my.Author", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true, Keys: []string{"ID"}}
	author.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(author)

	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true, Keys: []string{"ID"}}
	book.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	book.AddElement(&model.Element{Name: "author", Assoc: &model.Association{
		Target: "my.Author", ResolvedTarget: "my.Author",
		Keys: []*model.ForeignKeyRef{{Path: []string{"author_ID"}, Ref: []string{"ID"}}},
	}})
	s.Put(book)

	keypath.TargetPaths(s)
	keypath.NavPropBindings(s)
	keypath.KeyPaths(s, errs.NewSink())

	book, _ = s.Get("my.Book")
	author, _ = s.Get("my.Author")

	// author has its own entity set, so nothing needs a target path through it.
	assert.Empty(t, author.EdmTgtPaths)

	require.Len(t, book.EdmNPBs, 1)
	assert.Equal(t, "author", book.EdmNPBs[0].Path)
	assert.Equal(t, "Authors", book.EdmNPBs[0].Target)

	require.Len(t, book.EdmKeyPaths, 1)
	assert.Equal(t, []string{"ID"}, book.EdmKeyPaths[0])
	require.Len(t, author.EdmKeyPaths, 1)
	assert.Equal(t, []string{"ID"}, author.EdmKeyPaths[0])
}

func TestTargetPathsDFSThroughEntitySetlessIntermediate(t *testing.T) {
	s := model.New()

	leaf := &model.Definition{Name: "my.Leaf", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true}
	leaf.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(leaf)

	mid := &model.Definition{Name: "my.Mid", Kind: model.KindEntity, IsStruct: true, HasEntitySet: false}
	mid.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	mid.AddElement(&model.Element{Name: "leaf", Assoc: &model.Association{Target: "my.Leaf", ResolvedTarget: "my.Leaf"}})
	s.Put(mid)

	root := &model.Definition{Name: "my.Root", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true}
	root.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	root.AddElement(&model.Element{Name: "mid", Assoc: &model.Association{Target: "my.Mid", ResolvedTarget: "my.Mid"}})
	s.Put(root)

	keypath.TargetPaths(s)

	mid, _ = s.Get("my.Mid")
	require.Len(t, mid.EdmTgtPaths, 1)
	assert.Equal(t, []string{"mid"}, mid.EdmTgtPaths[0])

	// leaf has its own entity set, so the walk does not push a path through it
	// even though mid (entity-set-less) sits between root and leaf.
	leaf, _ = s.Get("my.Leaf")
	assert.Empty(t, leaf.EdmTgtPaths)
}

func TestTargetPathsCycleGuardTerminates(t *testing.T) {
	s := model.New()

	a := &model.Definition{Name: "my.A", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true}
	a.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	a.AddElement(&model.Element{Name: "toB", Assoc: &model.Association{Target: "my.B", ResolvedTarget: "my.B"}})
	s.Put(a)

	b := &model.Definition{Name: "my.B", Kind: model.KindEntity, IsStruct: true, HasEntitySet: false}
	b.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	b.AddElement(&model.Element{Name: "toA", Assoc: &model.Association{Target: "my.A", ResolvedTarget: "my.A"}})
	s.Put(b)

	require.NotPanics(t, func() {
		keypath.TargetPaths(s)
	})

	b, _ = s.Get("my.B")
	require.Len(t, b.EdmTgtPaths, 1)
	assert.Equal(t, []string{"toB"}, b.EdmTgtPaths[0])
}

func TestNavPropBindingsSuppressesToManySingleton(t *testing.T) {
	s := model.New()

	singleton := &model.Definition{Name: "my.Config", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true}
	singleton.Annotations = model.NewAnnotations()
	singleton.Annotations.Set("@odata.singleton", model.BoolAnnotation(true))
	singleton.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(singleton)

	root := &model.Definition{Name: "my.Root", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true}
	root.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	root.AddElement(&model.Element{Name: "configs", Assoc: &model.Association{
		Target: "my.Config", ResolvedTarget: "my.Config",
		Cardinality: model.Cardinality{Max: model.Many},
	}})
	s.Put(root)

	keypath.TargetPaths(s)
	keypath.NavPropBindings(s)

	root, _ = s.Get("my.Root")
	assert.Empty(t, root.EdmNPBs)
}

func TestKeyPathsFlattensStructuredKeyElement(t *testing.T) {
	s := model.New()

	e := &model.Definition{Name: "my.Thing", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true, Keys: []string{"x"}}
	e.AddElement(&model.Element{Name: "x", Key: true, Elements: []*model.Element{
		{Name: "a", Base: &model.ScalarType{Base: "cds.Integer"}},
		{Name: "b", Base: &model.ScalarType{Base: "cds.String"}},
	}})
	s.Put(e)

	sink := errs.NewSink()
	keypath.KeyPaths(s, sink)

	e, _ = s.Get("my.Thing")
	require.Len(t, e.EdmKeyPaths, 2)
	assert.Contains(t, e.EdmKeyPaths, []string{"x", "a"})
	assert.Contains(t, e.EdmKeyPaths, []string{"x", "b"})
	assert.False(t, sink.HasErrors())
}

func TestKeyPathsExpandsManagedAssociationKey(t *testing.T) {
	s := model.New()

	target := &model.Definition{Name: "my.Author", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true}
	target.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(target)

	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true, Keys: []string{"author"}}
	book.AddElement(&model.Element{Name: "author", Key: true, Assoc: &model.Association{
		Target: "my.Author", ResolvedTarget: "my.Author",
		Keys: []*model.ForeignKeyRef{{Path: []string{"ID"}, Ref: []string{"ID"}}},
	}})
	s.Put(book)

	keypath.KeyPaths(s, errs.NewSink())

	book, _ = s.Get("my.Book")
	require.Len(t, book.EdmKeyPaths, 1)
	assert.Equal(t, []string{"author", "ID"}, book.EdmKeyPaths[0])
}

func TestKeyPathsRefusesUnmanagedAssociationKey(t *testing.T) {
	s := model.New()

	target := &model.Definition{Name: "my.Author", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true}
	target.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(target)

	book := &model.Definition{Name: "my.Book", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true, Keys: []string{"author"}}
	book.AddElement(&model.Element{Name: "author", Key: true, Assoc: &model.Association{
		Target: "my.Author", ResolvedTarget: "my.Author", On: model.Expr{Kind: model.ExprRef},
	}})
	s.Put(book)

	sink := errs.NewSink()
	keypath.KeyPaths(s, sink)

	book, _ = s.Get("my.Book")
	assert.Empty(t, book.EdmKeyPaths)
	assert.True(t, sink.Len() > 0)
}

func TestKeyPathsRejectsNonWhitelistedScalar(t *testing.T) {
	s := model.New()

	e := &model.Definition{Name: "my.Thing", Kind: model.KindEntity, IsStruct: true, HasEntitySet: true, Keys: []string{"blob"}}
	e.AddElement(&model.Element{Name: "blob", Key: true, Base: &model.ScalarType{Base: "cds.LargeBinary"}})
	s.Put(e)

	sink := errs.NewSink()
	keypath.KeyPaths(s, sink)

	e, _ = s.Get("my.Thing")
	assert.Empty(t, e.EdmKeyPaths)
	assert.True(t, sink.Len() > 0)
}

func TestKeyPathsSkipsEntityWithoutEntitySet(t *testing.T) {
	s := model.New()

	e := &model.Definition{Name: "my.Thing", Kind: model.KindEntity, IsStruct: true, HasEntitySet: false, Keys: []string{"ID"}}
	e.AddElement(&model.Element{Name: "ID", Base: &model.ScalarType{Base: "cds.UUID"}, Key: true})
	s.Put(e)

	keypath.KeyPaths(s, errs.NewSink())

	e, _ = s.Get("my.Thing")
	assert.Empty(t, e.EdmKeyPaths)
}
