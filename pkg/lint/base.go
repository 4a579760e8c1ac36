package lint

// BaseRule provides a default implementation of the Rule metadata methods.
// Embed this in rule implementations and implement Check.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
// Use NewBaseRule to construct one.
type BaseRule struct {
	name     string   // Unique rule name
	desc     string   // Detailed description
	facets   []string // Declared inputs, granularity first
	codes    []string // Codes the rule may emit
	examples []string // Self-test lines
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(name, desc string, facets, codes []string, examples ...string) BaseRule {
	return BaseRule{
		name:     name,
		desc:     desc,
		facets:   facets,
		codes:    codes,
		examples: examples,
	}
}

// Name returns the unique rule name.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// Facets returns the declared input names.
func (r *BaseRule) Facets() []string {
	return r.facets
}

// Codes returns the codes the rule may emit.
func (r *BaseRule) Codes() []string {
	return r.codes
}

// Examples returns the rule's self-test lines.
func (r *BaseRule) Examples() []string {
	return r.examples
}

// Check must be overridden by concrete rule implementations.
// The default implementation reports nothing.
func (r *BaseRule) Check(_ *Subject) (*Result, error) {
	return nil, nil
}
