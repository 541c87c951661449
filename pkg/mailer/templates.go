package mailer

import "fmt"

// WelcomeMessage greets a new account.
func WelcomeMessage(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to Formlane",
		Body: fmt.Sprintf("Hi %s,\n\n"+
			"Your account is ready. Build your first form, share the link and watch responses come in.\n\n"+
			"The Formlane team\n", name),
	}
}

// VerifyOTPMessage carries an email verification code.
func VerifyOTPMessage(to, code string) Message {
	return Message{
		To:      to,
		Subject: "Verify your email",
		Body: fmt.Sprintf("Your verification code is %s.\n\n"+
			"It expires in 24 hours. If you did not create an account, ignore this email.\n", code),
	}
}

// ResetOTPMessage carries a password reset code.
func ResetOTPMessage(to, code string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Your password reset code is %s.\n\n"+
			"It expires in 15 minutes. If you did not request a reset, ignore this email.\n", code),
	}
}

// ResponseAckMessage thanks a respondent for their submission.
func ResponseAckMessage(to, formTitle string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Thanks for filling in %q", formTitle),
		Body: fmt.Sprintf("Your response to %q has been recorded.\n\n"+
			"The Formlane team\n", formTitle),
	}
}
