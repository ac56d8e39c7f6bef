// Command otrrelay runs an in-memory HTTP store-and-forward mailbox for
// OTR wire frames, used during development in place of a real IM
// transport.
//
// HTTP API
//
//	POST /msg/{user}
//	    Enqueue a relay.Frame destined for {user}.
//
//	GET /msg/{user}?limit=N
//	    Return up to N queued frames for {user}, oldest first. Omit limit
//	    (or pass 0) to return the whole queue.
//
//	POST /msg/{user}/ack {"count": N}
//	    Drop the first N queued frames for {user}.
//
// All state is held in memory and lost on process exit. The relay never
// parses frame bodies; it only queues and forwards opaque bytes.
package main
