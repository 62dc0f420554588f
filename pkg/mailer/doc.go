// Package mailer provides declarative mailers for provider-managed email templates.
//
// A mailer class groups actions. Each action fills a Params accumulator with a
// template id, a recipient, a sender and template data; the Params are then
// delivered synchronously through a Sender or handed to an Enqueuer for
// background delivery. Templates live with the email provider, so the package
// never renders content itself.
//
// # Architecture
//
//   - Params: accumulates header fields (Merge) and template data (Assign)
//   - Class: named set of actions plus inheritable default header fields
//   - Mailer: the receiver of one action call, with Mail and Assign helpers
//   - Sender / Enqueuer: delivery collaborators implemented by sub-packages
//
// # Usage
//
//	var Notifier = mailer.NewClass("notifier",
//		mailer.WithSender(resend.New(cfg.Resend)),
//		mailer.WithEnqueuer(mailjob.NewEnqueuer(jobs)),
//	).Default(mailer.Fields{
//		mailer.FromAddress: "no-reply@example.com",
//	})
//
//	var Welcome = mailer.Register(Notifier, "welcome", func(m *mailer.Mailer, u User) error {
//		m.Assign("name", u.Name)
//		m.Mail(mailer.Fields{
//			mailer.EmailID:          "tem_welcome",
//			mailer.RecipientAddress: u.Email,
//		})
//		return nil
//	})
//
//	// Send now
//	err := Welcome.Deliver(ctx, user)
//
//	// Or build first and deliver later
//	params, err := Notifier.Call("welcome", user)
//	err = params.DeliverLater(ctx)
//
// # Header Fields
//
// Mail and Params.Merge accept Fields keyed by:
//
//	EmailID (TemplateID)   template identifier, overwritten
//	RecipientAddress/Name  recipient, overwritten
//	FromAddress/Name       sender, overwritten
//	ReplyTo                sender reply-to, overwritten
//	CC, BCC, Files, Tags   appended on every merge
//	Headers                merged, later values win per header
//	VersionName, Locale,
//	ESPAccount             provider template selectors, overwritten
//
// Unknown keys are ignored.
//
// # Defaults and Inheritance
//
// Class.Default merges fields into a class's defaults. Extend creates a
// subclass starting from a copy of the parent's defaults; changes made to
// the parent afterwards are not visible to the subclass. Defaults can also
// be loaded from YAML with LoadDefaults.
//
// # Delivery
//
// Deliver and DeliverLater do nothing when no template id has been set.
// Errors from the Sender or Enqueuer are returned unchanged.
package mailer
