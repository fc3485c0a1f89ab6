package back

// preamble defines the tape runtime the generated statements call into.
const preamble = `#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>

#define CAP 1024

typedef struct {
    uint8_t* items;
    size_t len;
    size_t ptr;
} Tape;

static void tape_fatal(const char* msg) {
    fflush(stdout);
    fprintf(stderr, "%s\n", msg);
    abort();
}

static void tape_grow(Tape* tape, size_t idx) {
    size_t len = tape->len * 2;
    if (len <= idx) len = idx + 1;

    uint8_t* items = realloc(tape->items, len);
    if (items == NULL) tape_fatal("tape: out of memory");

    memset(items + tape->len, 0, len - tape->len);
    tape->items = items;
    tape->len = len;
}

static size_t tape_index(Tape* tape, int64_t delta) {
    int64_t idx = (int64_t)tape->ptr + delta;
    if (idx < 0) tape_fatal("tape underflow");
    if ((size_t)idx >= tape->len) tape_grow(tape, (size_t)idx);
    return (size_t)idx;
}

static uint8_t tape_curr(Tape* tape) {
    return tape->items[tape->ptr];
}

static void tape_assign(Tape* tape, int64_t val) {
    tape->items[tape->ptr] = (uint8_t)val;
}

static void tape_update(Tape* tape, int64_t delta) {
    tape->items[tape->ptr] = (uint8_t)(tape->items[tape->ptr] + delta);
}

static void tape_shift(Tape* tape, int64_t delta) {
    tape->ptr = tape_index(tape, delta);
}

static void tape_multiply(Tape* tape, int64_t k) {
    tape_assign(tape, k * tape_curr(tape));
}

static void tape_add(Tape* tape, int64_t delta) {
    size_t idx = tape_index(tape, delta);
    tape->items[idx] = (uint8_t)(tape->items[idx] + tape_curr(tape));
}

static void tape_in(Tape* tape, int64_t n) {
    fflush(stdout);

    for (int64_t i = 0; i < n; ++i) {
        int c = getchar();
        if (c != EOF && c != 0) tape_assign(tape, c);
    }
}

static void tape_out(Tape* tape, int64_t n) {
    for (int64_t i = 0; i < n; ++i) {
        putchar(tape_curr(tape));
    }
}

#define tape_jpf(tape, dst) if (tape_curr(tape) == 0) goto dst
#define tape_jpb(tape, dst) if (tape_curr(tape) != 0) goto dst

static void tape_init(Tape* tape) {
    tape->items = calloc(CAP, 1);
    if (tape->items == NULL) tape_fatal("tape: out of memory");
    tape->len = CAP;
    tape->ptr = 0;
}
`

const mainHead = `
int main(void) {
    Tape tape = { 0 };
    tape_init(&tape);

`

const mainTail = `
    fflush(stdout);
    free(tape.items);
    return 0;
}
`
