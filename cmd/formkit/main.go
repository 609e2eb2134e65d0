// Command formkit runs the playground form server and submits forms from
// the command line.
//
//	formkit serve --schema signup.schema.yaml
//	formkit submit POST http://localhost:8080/users --field email=a@b.com --file avatar=me.png
package main

func main() {
	Execute()
}
