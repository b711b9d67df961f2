// Package exception implements a hierarchical error and warning collector
// indexed by path.
//
// A Tree creates a child node the first time At is called for a key and
// keeps it from then on, whether or not anything is ever recorded under it;
// HasException, Entries, and String report only nodes that carry a message.
// Two independent trees are used side by side during normalization: one for
// errors, one for warnings.
package exception
