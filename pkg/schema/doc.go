// Package schema validates request bodies against JSON Schema documents
// written in JSON or YAML.
//
// A compiled Schema plugs into handler.Validated through Decode and reports
// failures as *Failure, whose issues carry the instance path of each error:
//
//	s, err := schema.LoadFile("signup.schema.yaml")
//	if err != nil {
//		return err
//	}
//	r.Post("/users", handler.Validated(createUser, schema.Decode[SignupRequest](s)))
//
// Messages default to the validator's wording. The x-messages keyword
// replaces them per keyword. Missing required properties are reported on
// the property itself with the message "Required".
package schema
