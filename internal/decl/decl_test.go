package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStorageClassRejectsExternStaticCombo(t *testing.T) {
	assert.Error(t, ValidateStorageClass(ScExtern|ScStatic))
}

func TestValidateStorageClassAllowsExternAlone(t *testing.T) {
	assert.NoError(t, ValidateStorageClass(ScExtern))
}

func TestValidateStorageClassAllowsThreadLocalWithExtern(t *testing.T) {
	assert.NoError(t, ValidateStorageClass(ScExtern|ScThreadLocal))
}

func TestValidateStorageClassRejectsThreadLocalWithRegister(t *testing.T) {
	assert.Error(t, ValidateStorageClass(ScRegister|ScThreadLocal))
}

func TestValidateStorageClassRejectsInlineWithRegister(t *testing.T) {
	assert.Error(t, ValidateStorageClass(ScInline|ScRegister))
}

func TestValidateStorageClassAllowsInlineWithStatic(t *testing.T) {
	assert.NoError(t, ValidateStorageClass(ScInline|ScStatic))
}

func TestValidateStorageClassRejectsAutoWithTypedef(t *testing.T) {
	assert.Error(t, ValidateStorageClass(ScAuto|ScTypedef))
}

func TestValidateStorageClassAllowsAutoAlone(t *testing.T) {
	assert.NoError(t, ValidateStorageClass(ScAuto))
}

func TestValidateStorageClassRejectsThreadLocalWithTypedef(t *testing.T) {
	assert.Error(t, ValidateStorageClass(ScTypedef|ScThreadLocal))
}

func TestValidateStorageClassRejectsConstexprWithExtern(t *testing.T) {
	assert.Error(t, ValidateStorageClass(ScConstexpr|ScExtern))
}

func TestValidateStorageClassAllowsConstexprWithStatic(t *testing.T) {
	assert.NoError(t, ValidateStorageClass(ScConstexpr|ScStatic))
}

func TestGenericShapeCachesInstantiation(t *testing.T) {
	g := NewGenericShape([]string{"T"})
	_, ok := g.Instantiate("foo", nil)
	assert.False(t, ok)

	d := &Decl{Kind: KindFunctionGen, Name: "foo"}
	g.Cache("foo", nil, d)
	got, ok := g.Instantiate("foo", nil)
	assert.True(t, ok)
	assert.Same(t, d, got)
}
