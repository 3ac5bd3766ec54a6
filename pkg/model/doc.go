// Package model defines the view model renderers consume: the palette, the
// drag/hover visual state, the ordered placed fields with their control
// discriminators, and the dialog prompt awaiting an answer. Computed flags
// (Empty, ShowSubmit, Control, InputType) are materialised as plain fields so
// template engines that serialise the model keep them.
package model
