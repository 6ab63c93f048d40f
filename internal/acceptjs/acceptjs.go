// Package acceptjs holds the server-side knowledge the browser needs to drive
// Authorize.Net Accept.js: which script to load and how to word its errors.
package acceptjs

const (
	ProductionScriptURL = "https://js.authorize.net/v1/Accept.js"
	SandboxScriptURL    = "https://jstest.authorize.net/v1/Accept.js"

	// FallbackMessage is shown for any code not in the table.
	FallbackMessage = "We couldn't process your card at this time. Please try again."
)

// Common Accept.js validation codes, see
// https://developer.authorize.net/api/reference/features/acceptjs.html#Appendix_Error_Codes
var messages = map[string]string{
	"E_WC_04": "Please provide card number, expiration month, year and CVV.",
	"E_WC_05": "Please provide valid card number.",
	"E_WC_06": "Please provide valid expiration month.",
	"E_WC_07": "Please provide valid expiration year.",
	"E_WC_08": "Please provide a future expiration date.",
	"E_WC_15": "Please provide valid CVV.",
	"E_WC_20": "Please provide valid card number.",
}

// ScriptURL returns the Accept.js location for an environment. Anything
// other than "Production" loads the sandbox script.
func ScriptURL(environment string) string {
	if environment == "Production" {
		return ProductionScriptURL
	}
	return SandboxScriptURL
}

func ErrorMessage(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return FallbackMessage
}

// Messages returns a copy of the code to message table.
func Messages() map[string]string {
	out := make(map[string]string, len(messages))
	for k, v := range messages {
		out[k] = v
	}
	return out
}
