// Package genderapi provides a client for the GenderAPI.io gender inference service.
//
// The service infers a gender from a personal name, an email address or a
// social media username. Every lookup is a single authenticated HTTP round trip.
//
// # Usage
//
// Create a client with your API key and run a lookup:
//
//	client, err := genderapi.NewClient("your-api-key")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := client.LookupByName(ctx, genderapi.NameQuery{
//		Name:    "Michael",
//		Country: "US",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	switch r := res.(type) {
//	case *genderapi.SuccessResult:
//		fmt.Println(r.Gender, r.ProbabilityOrZero())
//	case *genderapi.ErrorResult:
//		fmt.Println("service refused lookup:", r.Errmsg)
//	}
//
// # Results and errors
//
// A lookup either returns a Result or fails with an error. Results are a
// closed set of two types, discriminated by the "status" field of the
// service response:
//
//   - SuccessResult: the service inferred a gender
//   - ErrorResult: the service reported a business error (bad key, no credits)
//
// Failures are returned as typed errors:
//
//   - ArgumentError: invalid input, detected before any network activity
//   - TransportError: the request never produced an HTTP response
//   - ServerError: the service answered with 500, 502, 503, 504 or 408
//   - ProtocolError: the response body broke the wire contract
//
// All of them work with errors.Is and errors.As:
//
//	var srvErr *genderapi.ServerError
//	if errors.As(err, &srvErr) {
//		// srvErr.StatusCode
//	}
//
// A Client holds only immutable configuration and is safe for concurrent use.
// It never retries.
package genderapi
