// Package dataflow is a small in-process, data-parallel execution substrate.
//
// A [Cluster] runs the same function on W workers, each its own goroutine
// (SPMD style). Workers share nothing mutable; they communicate only through
// typed [Channel] values:
//
//   - [Channel.Exchange] repartitions records by a caller-supplied key, so
//     each record is delivered to worker key % W.
//   - [Channel.Broadcast] delivers every record to every worker.
//   - [AllReduce] combines one value per worker into the same result everywhere.
//
// Every exchange is collective: each worker must make the same sequence of
// calls on a channel, and a call returns only once every peer has delivered
// its batch for that round. An exchange is therefore also a barrier, which
// is how a join layer is kept from starting before the previous layer's
// output is complete across all workers.
//
// Records travel with a [Timestamp] carrying an epoch and an iteration
// counter. [Iterate] is the bounded loop construct: it steps a worker
// through iterations 0..max-1, advancing the timestamp each time.
//
// Only in-process workers are supported. Batches change hands over Go
// channels, which transfers their ownership to the receiver.
package dataflow
