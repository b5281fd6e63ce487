/*
Package domain contains the flowchart model compiled by flowc.

It defines the node variants, the slot-indexed connections between them, the
Flowchart graph with its mutation operations, and the Program that groups one
flowchart per function. This package is kept pure and free of external
dependencies like I/O or persistence.

# Key Entities

  - Node: one flowchart box. Its Statement is the variant payload (Declaration,
    Conditional, WhileLoop...).
  - Connection: a directed edge from an outgoing slot to an incoming slot.
  - Flowchart: nodes plus connections for one function body, rooted at a Root
    or FunctionStart node and closed by a FunctionEnd node.
  - Program: an ordered list of flowcharts plus declared headers.

# Topology

Single-exit nodes use slot 0. A Conditional uses slot 1 for the true branch
and slot 0 for the false branch; both branches reunite at an automatically
created Connector. A loop uses slot 1 for its body and slot 0 for its exit;
an empty body is a self back-edge and the last body node connects back to the
loop header on destination slot 1.
*/
package domain
