package model

// Decorator adjusts a form model after it has been assembled and before it is
// rendered.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// Apply runs decorators in order, stopping at the first error.
func Apply(form *FormModel, decorators ...Decorator) error {
	for _, d := range decorators {
		if d == nil {
			continue
		}
		if err := d.Decorate(form); err != nil {
			return err
		}
	}
	return nil
}
