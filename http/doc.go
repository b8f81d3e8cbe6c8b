// Package http provides the JSON response helpers used by the container's
// inspection endpoints.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(c.Entries())               // 200 {"data": [...]}
//	res.NotFound()                         // 404 {"message": "Not found."}
//	res.Error(http.StatusBadRequest, "..") // {"message": ".."}
//	res.NoContent()                        // 204
//
// # Container errors
//
// Fail picks the status from the error chain, so handlers can hand any error
// returned by Resolve, Make or Call straight back to the client:
//
//	v, err := c.Resolve(id, nil)
//	if err != nil {
//	    res.Fail(err) // 404 for NotFoundError, 400 for InvalidArgumentError
//	    return
//	}
package http
