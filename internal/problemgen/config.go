package problemgen

// DefaultValidators returns the standard validator chain.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&OptionsValidator{},
		&AgreementValidator{},
	}
}
