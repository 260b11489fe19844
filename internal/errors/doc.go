// Package errors provides coded, diagnosable errors for Vitrio.
//
// Every failure that reaches a user-facing surface (the development 500 page,
// the CLI) is wrapped in an *Error carrying a stable code, a category, a
// short message and the call stack where it was captured.
//
// # Error Codes
//
// Codes are grouped by range:
//   - V1xx: routing and request hooks (loaders, actions, render)
//   - V2xx: configuration
//   - V3xx: static assets
//
// # Usage
//
//	err := errors.Wrap("V101", loaderErr).WithDetail("route /users/:id")
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR V101: Loader failed
//	//
//	//   route /users/:id
//	//
//	//   Cause: user store unavailable
//	//
//	//   Stack:
//	//     github.com/acme/app/routes.loadUser
//	//         /src/app/routes/users.go:42
package errors
