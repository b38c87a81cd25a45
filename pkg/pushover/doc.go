// Package pushover sends notifications to the Pushover Message API
// (https://pushover.net/api).
//
// Build validates caller input into a Message, Client.Push submits it as a
// single multipart POST, and Interpret turns the response into a Result that
// can be reported line by line:
//
//	message, err := pushover.Build(pushover.Parameters{Token: "TOKEN", User: "USER", Message: "Hello, world!"})
//	if err != nil {
//		return err
//	}
//	response, err := pushover.NewClient(nil, logger).Push(ctx, message)
//	if err != nil {
//		return err
//	}
//	result, err := pushover.Interpret(response)
package pushover
