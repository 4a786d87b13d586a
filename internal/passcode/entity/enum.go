package entity

type Channel int16

const (
	// ChannelUnknown marks an unset or unrecognized channel.
	ChannelUnknown Channel = 0

	// ChannelEmail delivers codes to an email address.
	ChannelEmail Channel = 1

	// ChannelPhone delivers codes to a phone number via SMS.
	ChannelPhone Channel = 2
)

func ChannelFromString(str string) Channel {
	switch str {
	case "email":
		return ChannelEmail
	case "phone":
		return ChannelPhone
	default:
		return ChannelUnknown
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	case ChannelPhone:
		return "phone"
	default:
		return "unknown"
	}
}

func (c Channel) IsUnknown() bool {
	switch c {
	case ChannelEmail, ChannelPhone:
		return false
	default:
		return true
	}
}

type Purpose int16

const (
	// PurposeUnknown marks an unset or unrecognized purpose.
	PurposeUnknown Purpose = 0

	// PurposeVerification proves control of an address after registration.
	PurposeVerification Purpose = 1

	// PurposePasswordReset authorizes a password reset.
	PurposePasswordReset Purpose = 2

	// PurposeLogin is the passwordless login step-up.
	PurposeLogin Purpose = 3
)

func PurposeFromString(str string) Purpose {
	switch str {
	case "verification":
		return PurposeVerification
	case "password_reset":
		return PurposePasswordReset
	case "login":
		return PurposeLogin
	default:
		return PurposeUnknown
	}
}

func (p Purpose) String() string {
	switch p {
	case PurposeVerification:
		return "verification"
	case PurposePasswordReset:
		return "password_reset"
	case PurposeLogin:
		return "login"
	default:
		return "unknown"
	}
}

func (p Purpose) IsUnknown() bool {
	switch p {
	case PurposeVerification, PurposePasswordReset, PurposeLogin:
		return false
	default:
		return true
	}
}
