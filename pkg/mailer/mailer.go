package mailer

// Mailer is the receiver of one action call. It is created by Class.Call
// and owns the Params the action fills.
type Mailer struct {
	class   *Class
	message *Params
	action  string
}

// Mail sets header fields: the class defaults are merged first, then fields,
// so explicit values win.
//
//	m.Mail(mailer.Fields{
//	    mailer.EmailID:          "tem_welcome",
//	    mailer.RecipientAddress: user.Email,
//	})
func (m *Mailer) Mail(fields Fields) {
	m.message.Merge(m.class.Defaults().With(fields))
}

// Assign sets one template data entry.
func (m *Mailer) Assign(key string, value any) {
	m.message.Assign(key, value)
}

// Message returns the Params being built.
func (m *Mailer) Message() *Params { return m.message }

// Class returns the class the action was dispatched on.
func (m *Mailer) Class() *Class { return m.class }

// ActionName returns the dispatched action name.
func (m *Mailer) ActionName() string { return m.action }
