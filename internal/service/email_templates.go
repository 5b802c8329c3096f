package service

import "fmt"

func welcomeEmailTemplate(name, role, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)

	intro := "Your profile is live."
	if role != "" {
		intro = fmt.Sprintf("Your profile is live and listed under %s.", role)
	}

	body := fmt.Sprintf(`Hi %s,

%s Other musicians can now find you through discovery and invite you to their projects.

A few things to try next:
- Fill in your bio, location and credits so people know what you've worked on
- Start a project and invite collaborators
- Browse profiles by role or genre

Best,
The %s Team`, name, intro, appName)

	return subject, body
}
