package validate

import "fmt"

// Message renders the verdict line printed by the checker. The two templates
// are a compatibility contract; do not reword them.
func Message(username string, valid bool) string {
	if valid {
		return fmt.Sprintf("'%s' is a valid username.", username)
	}
	return fmt.Sprintf("'%s' is invalid.", username)
}
